// Package normalize turns raw SolidityScan response bodies into domain
// results. Field reads are defensive: an absent field takes its default
// (0, "Unknown", "" or false) and never fails the scan. Only the embedded
// status fields of the threat endpoint decide between DONE and FAILED.
package normalize
