// Package shopsearch embeds the product search relevance layer in a Go program.
//
// A Client queries a WooCommerce catalog with several retrieval passes, scores
// every candidate against the query and returns a ranked, shaped result:
//
//	client, _ := shopsearch.New(
//	    shopsearch.WithCatalog("https://shop.example/wp-json/wc/v3", key, secret),
//	    shopsearch.WithLogger(slog.Default()),
//	)
//	res, err := client.Search(ctx, "folding wheelchair", 8)
//	if errors.Is(err, shopsearch.ErrEmptyQuery) {
//	    // ask for a query
//	}
//	for _, p := range res.Products {
//	    fmt.Println(p.Name, p.Price, p.RelevanceScore)
//	}
//
// Chat accepts a conversational message and never fails; Products returns the
// minimal legacy records.
package shopsearch
