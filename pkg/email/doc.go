// Package email sends transactional messages through Postmark, with a
// logging-only DevSender for development.
//
// In this repository email carries the QR code to the customer after
// issuance, with the image embedded as a base64 data URI. Sending is always
// best-effort: issuance has already committed the token before any send is
// attempted, and a failed delivery is logged and retried manually via the
// resend operation.
package email
