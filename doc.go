// Package intentd resolves free-form home-service requests against a fixed
// service catalog. A request (text, image, or document) is embedded, ranked
// against precomputed catalog embeddings, and passed through a
// whitelist-constrained extraction step so the answer only ever references
// real catalog items.
//
// The embedded client wires the whole pipeline in-process:
//
//	client, _ := intentd.New(
//	    intentd.WithSnapshot("catalog/snapshot.json"),
//	    intentd.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer client.Close()
//
//	result, _ := client.ResolveText(ctx, "repaint my living room, two walls are cracked")
//	for _, item := range result.Items {
//	    fmt.Println(item.ID, item.Quantity)
//	}
//
// For a network service, run cmd/intentd instead; it exposes the same
// pipeline over HTTP.
package intentd
