// Package version implements parsing and ordering of KPM package version
// strings of the form [epoch:]upstream[-revision].
package version

import (
	"strconv"
	"strings"
)

// Version is an immutable package version. The zero value compares equal to
// "0:0-" and is treated as "no version".
type Version struct {
	Epoch    uint32
	Upstream string
	Revision string
}

// Parse parses a version string. It never fails: an epoch is only recognized
// when the text before the first ':' is a decimal number, and upstream and
// revision are stored verbatim whatever they contain. The revision is split
// off at the last '-' so upstream versions like "1.0-alpha-2" keep their
// inner dashes.
func Parse(s string) Version {
	var v Version
	rest := strings.TrimSpace(s)

	if idx := strings.Index(rest, ":"); idx >= 0 {
		if epoch, err := strconv.ParseUint(rest[:idx], 10, 32); err == nil {
			v.Epoch = uint32(epoch)
			rest = rest[idx+1:]
		}
	}

	if idx := strings.LastIndex(rest, "-"); idx >= 0 {
		v.Upstream = rest[:idx]
		v.Revision = rest[idx+1:]
	} else {
		v.Upstream = rest
	}
	return v
}

// Compare returns -1, 0 or 1 depending on whether v orders before, equal to
// or after other. Epochs decide outright; otherwise upstream and then
// revision are compared segment-wise.
func (v Version) Compare(other Version) int {
	switch {
	case v.Epoch < other.Epoch:
		return -1
	case v.Epoch > other.Epoch:
		return 1
	}
	if c := compareSegmented(v.Upstream, other.Upstream); c != 0 {
		return c
	}
	return compareSegmented(v.Revision, other.Revision)
}

// Equal reports whether v and other compare equal.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool {
	return v == Version{}
}

// String reassembles the version into its canonical textual form. An epoch of
// zero and an empty revision are omitted.
func (v Version) String() string {
	var sb strings.Builder
	if v.Epoch > 0 {
		sb.WriteString(strconv.FormatUint(uint64(v.Epoch), 10))
		sb.WriteString(":")
	}
	sb.WriteString(v.Upstream)
	if v.Revision != "" {
		sb.WriteString("-")
		sb.WriteString(v.Revision)
	}
	return sb.String()
}

// MarshalText implements encoding.TextMarshaler so versions serialize as
// plain strings in JSON and YAML.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	*v = Parse(string(text))
	return nil
}

// compareSegmented compares two dot-separated strings segment by segment.
// Segments that both parse as integers compare numerically, anything else
// compares lexically, and a missing segment counts as "0".
func compareSegmented(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		sa, sb := "0", "0"
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		if c := compareSegment(sa, sb); c != 0 {
			return c
		}
	}
	return 0
}

func compareSegment(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
