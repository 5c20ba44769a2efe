// Package inspect provides read-only tooling over sealed shadow trees.
//
// Capture turns a node and its subtree into a Snapshot, a plain value that
// encodes as text, JSON, or YAML. Walk, Count, and Find traverse live
// nodes without copying them.
//
// Server exposes the generations of a commit.Tree over HTTP:
//
//	GET /health                  liveness probe
//	GET /tree                    current generation (?format=text|json|yaml)
//	GET /tree/{tag}              subtree rooted at tag
//	GET /tree/{tag}/ancestors    ancestors of tag, nearest first
//	GET /metrics                 Prometheus metrics
//	GET /ws                      WebSocket stream of committed generations
//
// The server only reads published generations, which are sealed, so it
// needs no coordination with the producer.
package inspect
