// Package webhook serves the Slack-facing HTTP endpoints.
//
// # Endpoints
//
//   - POST <commands_path>: slash command webhook (form-encoded body)
//   - GET <oauth_path>: OAuth installation redirect target (?code=...)
//   - GET /healthz: liveness
//   - GET <metrics_path>: prometheus exposition, when metrics are enabled
//
// # Slash command flow
//
//  1. Body size checked (413 if too large)
//  2. If a signing secret is configured, X-Slack-Signature is verified
//     against X-Slack-Request-Timestamp and the raw body (403, no details)
//  3. The body is handed to the command handler, which checks the
//     verification token and required fields
//  4. Validation failures come back as a 200 reply the user can read
//  5. A missing structural field or a dispatch failure is a 500
//
// # OAuth flow
//
//  1. ?error=... (user declined) -> 400
//  2. Missing ?code -> 400
//  3. Code exchanged with Slack (502 on failure)
//  4. Response mapped to an installation (500 if a key is missing)
//  5. Installation upserted by team (500 on storage failure)
//  6. 200 with team and channel; the access token is never echoed
package webhook
