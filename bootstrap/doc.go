// Package bootstrap gives a gin engine the operational surface every
// service exposes and runs it.
//
// # Quick Start
//
//	app, err := bootstrap.New("my-service")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Setup(nil); err != nil { // parses --host, --port, ...
//	    log.Fatal(err)
//	}
//	if err := app.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// Built-in routes:
//
//   - GET /            200 "status"
//   - GET /-/healthy   liveness, see Probes
//   - GET /-/ready     readiness, see Probes
//   - GET /favicon.ico when WithStaticDir is set
//   - GET /metrics     Prometheus exposition, including app_info{version,appname}
//
// A probe answering (true, nil) yields 200 "OK", (false, nil) yields
// 500 "FAIL", and an error is logged and yields 500 with the error text.
package bootstrap
