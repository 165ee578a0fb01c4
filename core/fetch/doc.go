// Package fetch runs ERP inquiries for a batch of keys with bounded concurrency.
//
// Every key gets exactly one Result in the slot matching its input position, so a
// failed inquiry never disturbs its neighbours and callers can zip results back to
// their inputs. Failures are recorded per slot; the batch itself never fails.
// Callers that must abort on a fatal error inspect the results with FirstFatal.
//
// When the context is cancelled, inquiries already in flight finish and keys that
// were not started carry the context error.
package fetch
