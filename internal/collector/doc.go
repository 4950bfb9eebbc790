// Package collector implements the chat-driven batch state machine.
//
// The collector is idle until a message matching the trigger phrase arrives.
// From then on qualifying attachments (photos, and image documents when
// allowed) are downloaded into the staging area, and the next plain text
// message is parsed as a "City | Site" label that finalizes the batch: the
// staged files move into a labeled folder under the output root and the
// collector returns to idle. A second trigger abandons the batch in
// progress; its staged files are left for manual review.
//
// Handle returns an Outcome value describing each transition so callers can
// record history and send notifications without the collector knowing about
// either.
package collector
