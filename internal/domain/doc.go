// Package domain contains the core model for gmscraper: groups, messages,
// attachments, date ranges, aggression matching and scan reports.
//
// The domain does not depend on net/http, YAML parsing or the filesystem.
// Infra adapters map API payloads and files into/from these types.
package domain
