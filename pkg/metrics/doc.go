// Package metrics exports shadow tree activity as Prometheus metrics.
//
// A Collector implements shadow.Observer, so installing it counts node
// construction, child list copies, seals, and replace fallbacks for every
// tree in the process. The commit package reports generation commits to
// the same Collector.
//
// Metrics collected (with the default namespace):
//   - shadowtree_nodes_created_total: Counter of nodes by origin (fresh, derived)
//   - shadowtree_children_copied_total: Counter of copy-on-write child list copies
//   - shadowtree_children_copied_length: Histogram of copied list lengths
//   - shadowtree_nodes_sealed_total: Counter of sealed nodes
//   - shadowtree_replace_fallbacks_total: Counter of ReplaceChild linear scans
//   - shadowtree_commits_total: Counter of commits by status
//   - shadowtree_commit_duration_seconds: Histogram of commit duration
//   - shadowtree_generation: Gauge of the latest committed generation number
//   - shadowtree_generation_nodes: Gauge of nodes reachable from the latest root
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.New(metrics.WithRegistry(reg))
//	restore := collector.Install()
//	defer restore()
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics
