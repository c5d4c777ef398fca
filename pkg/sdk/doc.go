// Package eduhub embeds the EduHub catalog filter engine in a Go process.
//
// Catalogs are declared with a CatalogSpec and loaded from YAML data
// (a top-level "records" list). The client evaluates facet filters in memory
// with the same rules as the HTTP service: AND across facets, OR within a
// multi-select facet, case-insensitive substring search for text facets.
//
//	client, _ := eduhub.New(
//	    eduhub.WithCatalogFile(eduhub.CatalogSpec{
//	        Name:      "papers",
//	        Partition: "isSolved",
//	        Facets: []eduhub.FacetSpec{
//	            {Field: "q", Kind: eduhub.FacetText, TextFields: []string{"title"}},
//	            {Field: "subject", Kind: eduhub.FacetSingleSelect},
//	            {Field: "year", Kind: eduhub.FacetMultiSelect},
//	        },
//	    }, "data/papers.yaml"),
//	    eduhub.WithRole("student"),
//	)
//	page, _ := client.Query("papers").
//	    Match("q", "final").
//	    Where("subject", "Math").
//	    In("year", 2022, 2023).
//	    Do(ctx)
package eduhub
