package echo

import "context"

// Origin tells who caused a local write.
type Origin int

const (
	// OriginLocal is a user mutation on this device. It is the default.
	OriginLocal Origin = iota
	// OriginRemote is a write applying remote state (pull, snapshot restore).
	OriginRemote
	// OriginSync is sync bookkeeping, such as marking pushed logs synced.
	OriginSync
)

func (o Origin) String() string {
	switch o {
	case OriginRemote:
		return "remote"
	case OriginSync:
		return "sync"
	default:
		return "local"
	}
}

type originKey struct{}

// WithOrigin returns a copy of ctx tagged with o.
func WithOrigin(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, originKey{}, o)
}

// OriginFrom returns the origin stored in ctx, or [OriginLocal].
func OriginFrom(ctx context.Context) Origin {
	if o, ok := ctx.Value(originKey{}).(Origin); ok {
		return o
	}
	return OriginLocal
}

// IsLocal reports whether ctx describes a user mutation.
func IsLocal(ctx context.Context) bool {
	return OriginFrom(ctx) == OriginLocal
}
