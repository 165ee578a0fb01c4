// Package utils provides common utility functions for the erp-sync application.
// It includes helpers for converting the loosely typed values found in scraped ERP
// payloads, where numbers arrive as JSON numbers or strings depending on the endpoint.
package utils
