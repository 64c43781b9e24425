package filter

// Record holds the attributes of a matching entry: whether it is a directory,
// and the values each filter compared. It lets a caller reuse metadata that
// was already fetched for filtering.
type Record struct {
	Dir        bool
	Name       string
	ModifiedAt int64
	Size       int64
	Func       any

	has uint8
}

// Has reports whether a value of the given kind was recorded.
func (r Record) Has(kind Kind) bool {
	return r.has&(1<<kind) != 0
}

// SetName records the compared entry name.
func (r *Record) SetName(name string) {
	r.Name = name
	r.has |= 1 << KindName
}

// SetModifiedAt records the compared modification time (Unix seconds).
func (r *Record) SetModifiedAt(unix int64) {
	r.ModifiedAt = unix
	r.has |= 1 << KindTime
}

// SetSize records the compared size in bytes.
func (r *Record) SetSize(size int64) {
	r.Size = size
	r.has |= 1 << KindSize
}

// SetFunc records the value returned by a [Predicate].
func (r *Record) SetFunc(value any) {
	r.Func = value
	r.has |= 1 << KindFunc
}

// Map returns the record keyed by filter key, containing "dir" and every
// recorded attribute.
func (r Record) Map() map[string]any {
	m := map[string]any{"dir": r.Dir}

	if r.Has(KindName) {
		m[KeyName] = r.Name
	}
	if r.Has(KindTime) {
		m[KeyTime] = r.ModifiedAt
	}
	if r.Has(KindSize) {
		m[KeySize] = r.Size
	}
	if r.Has(KindFunc) {
		m[KeyFunc] = r.Func
	}

	return m
}
