// Package testutil provides testing infrastructure for gourde services.
//
// # Quick Start
//
//	func TestMyService(t *testing.T) {
//	    app := testutil.NewApp(t, "my-service", bootstrap.WithProbes(myProbes))
//	    testutil.Setup(t, app)
//
//	    code, body := testutil.Get(app, "/-/ready")
//	    // code == 200, body == "OK"
//	}
//
// NewApp isolates each app on its own metrics registry and disables the
// error monitor and the startup summary. CaptureLogs swaps the global
// logger for a buffer and restores it when the test ends.
package testutil
