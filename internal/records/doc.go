// Package records is the validated access layer for the tracker's two record
// kinds: meditation sessions and presets.
//
// [Store] shapes typed application records into repository records, submits
// them through the protocol client, and maps paginated listing responses back
// into typed records with a strict decode step at the boundary. All input
// validation happens here, client-side, before any network interaction.
// The remote enforces its own rules too, but its errors are less specific
// than a [shared.ValidationError] naming the offending field.
package records
