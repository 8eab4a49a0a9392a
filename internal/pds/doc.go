// Package pds speaks to the user's personal data server.
//
// [Client] is a thin XRPC client for the repository endpoints the tracker
// needs: com.atproto.repo.createRecord, com.atproto.repo.listRecords, and
// com.atproto.identity.resolveHandle. Responses carry record values as raw
// JSON; typed decoding happens one layer up in the records package.
//
// [SessionManager] owns the delegated-authorization session: it restores a
// persisted session on startup, drives the redirect-based sign-in flow
// through a loopback callback server, and revokes/clears the session on
// sign-out. Token refresh is delegated to [golang.org/x/oauth2].
package pds
