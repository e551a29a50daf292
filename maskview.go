package maskview

// Version is the release of the maskview packages and tools.
const Version = "0.3.1"
