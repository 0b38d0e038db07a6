// Package catalog declares the email jobs registered by this service.
//
// Three jobs are started by a manual invoke and use payload defaults; the
// fourth listens for the "send.email" event and takes the sender from the
// payload.
package catalog
