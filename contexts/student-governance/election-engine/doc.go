// Package electionengine runs the student-council election inside the
// student-governance context.
//
// The module owns the phase state machine, delegate candidacy, per-department
// delegate voting and its tally, party slate registration, slot-based council
// voting and its results. Student records are read through the
// EligibilityStore port and never written. Admin identity arrives already
// authorized from the transport boundary.
package electionengine
