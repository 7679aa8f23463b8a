// Package offline implements the caching intermediary that keeps previously seen content available when the
// network is not.
//
// # Lifecycle
//
// A [Worker] is one cache version. It moves through Installing, Waiting and Active, and ends Redundant once a
// newer version replaces it or its install fails.
//
//	Installing --precache ok--> Waiting --skip waiting / first worker--> Active --superseded--> Redundant
//	Installing --precache failed--> Redundant
//
// Install downloads the manifest into the "static-<version>" partition; if any asset is missing nothing is
// stored. Activation deletes every partition other than "static-<version>" and "dynamic-<version>" and then
// claims all traffic.
//
// # Fetching
//
// [Worker] and [Registration] are [http.RoundTripper]s. GET requests are answered cache-first across all
// partitions with no revalidation, so new server content is only seen after a version bump. Misses go to the
// network; a 200 from the worker's own origin is copied into the dynamic partition, which is trimmed to the
// configured bound. Network failures produce the cached root document for navigations and a 503 JSON body
// otherwise.
//
// # Versions
//
// [Watcher] watches a build directory with fsnotify and registers a worker tagged with [HashVersion] whenever the
// contents change. [DiscoverAssets] extends the manifest with the assets referenced by the root document.
package offline
