// Package scan models the detection events awaiting audit and classifies
// which of them still need a human.
//
// Scan payloads are not stable: three detector generations and several audit
// passes have each introduced their own field spellings for the same logical
// value. Records therefore stay as decoded JSON and every logical field is
// read through an ordered list of extraction strategies, tried in priority
// order, instead of ad hoc lookups scattered through the codebase.
package scan
