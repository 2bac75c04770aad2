package location

func coord(v float64) *float64 { return &v }

// DefaultCatalog is seeded alongside the achievement catalog. Keys are stable.
var DefaultCatalog = []Location{
	{Key: "union_street", Name: "Union Street", Category: CategoryAberdeen, Lat: coord(57.1446), Lng: coord(-2.1030)},
	{Key: "aberdeen_station", Name: "Aberdeen Railway Station", Category: CategoryAberdeen, Lat: coord(57.1437), Lng: coord(-2.0984)},
	{Key: "university_of_aberdeen", Name: "University of Aberdeen", Category: CategoryAberdeen, Lat: coord(57.1648), Lng: coord(-2.1015)},
	{Key: "robert_gordon_university", Name: "Robert Gordon University", Category: CategoryAberdeen, Lat: coord(57.1187), Lng: coord(-2.1378)},
	{Key: "royal_infirmary", Name: "Aberdeen Royal Infirmary", Category: CategoryAberdeen, Lat: coord(57.1549), Lng: coord(-2.1359)},
	{Key: "aberdeen_beach", Name: "Aberdeen Beach", Category: CategoryAberdeen, Lat: coord(57.1530), Lng: coord(-2.0820)},
	{Key: "bridge_of_don", Name: "Bridge of Don", Category: CategoryAberdeen, Lat: coord(57.1800), Lng: coord(-2.0900)},
	{Key: "home", Name: "Home", Category: CategoryGeneric},
	{Key: "work", Name: "Work", Category: CategoryGeneric},
	{Key: "school", Name: "School", Category: CategoryGeneric},
	{Key: "gym", Name: "Gym", Category: CategoryGeneric},
	{Key: "shops", Name: "Shops", Category: CategoryGeneric},
}
