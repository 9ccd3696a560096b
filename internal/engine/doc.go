// Package engine holds the derivation logic for challenge views: the streak
// calculator, the leaderboard ranker and the realtime reconciler. Everything
// here is either a pure function over snapshots or an in-process state
// machine; all I/O stays in the service and repository layers.
package engine
