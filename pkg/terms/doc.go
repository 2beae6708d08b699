// Package terms turns a layer's financial attributes into the short
// "name=value" annotations shown in graph labels.
//
// A fixed, ordered rule table decides which attributes are shown, how their
// values are formatted, and which values need attention. A layer needs
// attention when any rule's warning fires, for example an unlimited
// occurrence attachment or a zero share:
//
//	text, warn := terms.Format(layer)
//	// text == "\nshare=0.0%", warn == true
//
// Absent attributes are skipped silently.
package terms
