// Package pazar provides an in-process Go client for the pazar catalog and
// price-routing engine, backed by an in-memory store or Redis.
//
//	client, _ := pazar.New(ctx, pazar.WithMemory())
//	market, _ := client.CreateMarket(ctx, domain.Market{Name: "Merkez Pazar"})
//	claim, _ := client.ClaimStall(ctx, admin.ClaimRequest{
//	    MarketID: market.ID,
//	    Product:  &domain.Product{Name: "Domates", Category: "Sebze"},
//	    Price:    18.50,
//	    X:        120, Y: 80,
//	    VendorName: "Ahmet'in Sebzeleri",
//	})
//	result, _ := client.Search(ctx, "dom", market.ID)
package pazar
