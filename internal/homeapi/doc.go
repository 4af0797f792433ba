// Package homeapi provides an HTTP client for the home-automation server's
// JSON API.
//
// The server exposes one read endpoint for the whole home state
// (GET /api/stats) and a handful of mutating endpoints for device control,
// room/device/rule management, search, schedule lookups and bulk switching.
//
// # Usage Example
//
//	client := homeapi.NewClientWithURL("http://localhost:8080")
//
//	snap, err := client.FetchSnapshot(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(snap.FormatCompact())
//
//	_, err = client.Control(ctx, homeapi.ControlRequest{
//	    DeviceID: "L1",
//	    Action:   homeapi.ActionSetBrightness,
//	    Value:    "60",
//	})
//
// # Error Handling
//
// Every method returns *APIError. Use the predicates to branch:
//
//	switch {
//	case homeapi.IsNetworkError(err):  // no response (timeout, refused, DNS)
//	case homeapi.IsHTTPError(err):     // non-2xx
//	case homeapi.IsServerError(err):   // 2xx with status != "ok"
//	case homeapi.IsParseError(err):    // body not understood
//	}
//
// UserMessage returns the server's own message when one was sent, which is
// what the dashboard shows after a failed command.
package homeapi
