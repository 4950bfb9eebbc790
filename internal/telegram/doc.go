// Package telegram is a minimal Bot API transport: a hand-rolled HTTP
// client for the handful of methods snapsort needs (getMe, getUpdates,
// getFile plus the file download endpoint) and a long-poll Poller that
// translates incoming messages into collector events.
//
// The client doubles as the collector's Downloader, so staged photos stream
// straight from Telegram's file servers into the staging directory.
package telegram
