// Package mirror is a read-only client for the Hedera mirror node
// REST API. The acceptance suite asserts message receipt and entity
// metadata through it, since the mirror node reflects what the
// network actually committed rather than what the SDK submitted.
package mirror
