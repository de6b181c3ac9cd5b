// Package plotcache retrieves CI plot artifacts and serves their extracted
// contents from a local, content-keyed cache.
//
// An artifact is a zip archive produced by a GitHub Actions run, containing
// plot images organized into category subdirectories. The package resolves
// an artifact's download location, performs an authenticated streaming
// fetch, extracts the archive into a private staging area with path
// traversal hardening, atomically publishes the extracted tree into the
// cache, and indexes the published tree into named categories of image
// files.
//
// # Quick Start
//
//	client, err := plotcache.New(
//	    plotcache.WithToken(os.Getenv("GITHUB_TOKEN")),
//	    plotcache.WithCacheDir("cache"),
//	    plotcache.WithPlotsDir("static/plots"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	entry, err := client.GetOrBuild(ctx, "octocat/Hello-World", 42)
//	if err != nil {
//	    // errors.GetCode(err) distinguishes not-found, auth, network, ...
//	    return err
//	}
//
//	for category, images := range entry.Categories {
//	    fmt.Println(category, images)
//	}
//
// # Guarantees
//
//   - A key that has been published is never rebuilt; repeated calls are
//     pure cache lookups with no network activity.
//   - A failed build leaves nothing behind: temporary archives and staging
//     directories are removed, and the published path never holds partial
//     content.
//   - Concurrent builds of the same key are safe. Within one process they
//     are deduplicated; across processes the atomic publish rename ensures
//     exactly one entry becomes visible and losers adopt it.
//
// Cached entries persist indefinitely; there is no eviction or expiry.
package plotcache
