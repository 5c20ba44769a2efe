// Package archive stores snapshots of committed tree generations.
//
// A Sink writes one snapshot per generation. FileSink writes to a local
// directory and S3Sink to an S3 bucket. Objects are keyed by root tag and
// generation number:
//
//	<prefix>root-1/gen-00000042.json
//
// Subscriber stores each generation on the committing goroutine. Archiver
// queues generations and stores them on a background goroutine, dropping
// generations when the queue is full rather than delaying commits.
package archive
