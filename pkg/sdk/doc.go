// Package cvlens provides an embedded Go client for the cvlens candidate
// store. It connects straight to the profile store, so programs can rank
// an already ingested corpus without going through the HTTP API.
//
//	client, _ := cvlens.New(ctx,
//	    cvlens.WithRedis("localhost:6379", ""),
//	    cvlens.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	ranked, _ := client.Rank(ctx, cvlens.Target{
//	    Title:  "Software Engineer Developer",
//	    Skills: "Python, SQL, Leadership",
//	}, 7, 10)
//
// Ingestion stays with the cvlens CLI: the client is read-only.
package cvlens
