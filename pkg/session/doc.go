/*
Package session runs presentation sessions.

A Controller owns the navigation state of one session and moves it between
Idle and Active: intents go through the navigator, the result is rendered and
the encoded location is published. A Manager hosts many controllers keyed by
session ID for servers, serializing access with per-session locks (optionally
distributed) and persisting each session's location so it can be resumed.
*/
package session
