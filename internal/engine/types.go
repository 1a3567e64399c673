package engine

// Mode selects move or copy semantics. It is chosen once per invocation and
// carried by value through every call; a move deletes the source after a
// successful transfer, a copy leaves it in place.
type Mode int

const (
	Move Mode = iota
	Copy
)

func (m Mode) String() string {
	switch m {
	case Move:
		return "move"
	case Copy:
		return "copy"
	default:
		return "unknown"
	}
}

// Options is the immutable per-invocation configuration.
type Options struct {
	Force     bool  // overwrite existing destination files
	DryRun    bool  // plan and report only, no filesystem mutation
	Quiet     bool  // suppress informational output (events are still produced)
	Verbose   bool  // per-file detail
	Verify    bool  // compare BLAKE3 digests after each copy
	ChunkSize int64 // streaming copy chunk size; 0 means defaultChunkSize
}

// Request is one (source, destination) pair plus mode and options.
type Request struct {
	Src     string
	Dst     string
	Mode    Mode
	Options Options
}

// FileUnit is one concrete transfer: absolute source file, resolved
// destination file, and size in bytes. A file request yields one unit; a
// directory request yields one per contained regular file.
type FileUnit struct {
	Src  string
	Dst  string
	Size int64
}
