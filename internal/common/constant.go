// Package common contains shared constants and sentinel errors used across
// AuditDesk components.
package common

// Metadata keys carried next to gRPC payloads. They mirror the form fields a
// multipart upload would carry.
const (
	// AccessTokenHeaderName carries the access token on outbound requests.
	AccessTokenHeaderName = "access_token"
	// CategoryHeaderName selects the record set an upload targets.
	CategoryHeaderName = "x-audit-category"
	// RecordIDHeaderName carries the record identifier of an evidence upload.
	RecordIDHeaderName = "x-record-id"
	// FileNameHeaderName carries the original name of an uploaded file.
	FileNameHeaderName = "x-file-name"
)

// EvidencePathPrefix is the HTTP path under which evidence files are served.
const EvidencePathPrefix = "/uploads/"
