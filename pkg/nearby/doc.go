// Package nearby embeds the local-services directory in a Go program.
//
// The client reads the service catalog from a JSON file and keeps view counts
// and login sessions in Redis, Valkey or an embedded in-process server.
//
//	client, _ := nearby.New(ctx,
//	    nearby.WithCatalog("data/services.json"),
//	    nearby.WithMemory(),
//	)
//	defer client.Close()
//
//	here := nearby.Location{Lat: -8.65, Lng: 115.13}
//	listings, _ := client.Search(ctx, nearby.Query{
//	    Category:       "surfing",
//	    Near:           &here,
//	    MaxDistanceKm:  nearby.Km(10),
//	    SortByDistance: true,
//	})
//	for _, l := range listings {
//	    fmt.Println(l.Title, l.DistanceLabel)
//	}
package nearby
