package encoding

// Snapshotter is implemented by every stateful simulation system. Snapshots
// are plain records suitable for JSON encoding.
type Snapshotter[S any] interface {
	Serialize() S
	Deserialize(S) error
}
