// Package api exposes the HTTP surface: the ClickFunnels webhook receiver,
// subscription status routes, password auth and the listing endpoints used
// by the browser extension. All responses share the {success: bool}
// envelope the extension client already parses.
package api
