/*
Package core provides logging, progress reporting, and configuration shared by
all maskview packages.  It has no dependencies on the other maskview packages so
the view framework, the mask transforms, and the command-line tools can all log
and report progress the same way.
*/
package core
