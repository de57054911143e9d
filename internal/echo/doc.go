// Package echo implements the echo-suppression gate of the sync core.
//
// A [Gate] marks a time window in which local writes made on behalf of the
// remote store (a pull or a snapshot restore) are in flight. The realtime
// listener consults [Gate.Raised] and ignores change notifications while the
// gate is up. The gate is lowered by a deferred timer, not synchronously,
// because the change feed delivers the notification of a write some time
// after the write itself.
//
// Writes performed inside [Gate.Run] carry [OriginRemote] in their context;
// the local store uses [OriginFrom] to skip local-change hooks for them.
package echo
