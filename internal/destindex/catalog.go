package destindex

// Entry is one curated destination in the seed catalog.
type Entry struct {
	Name        string
	Country     string
	IATACode    string
	Lat, Lon    float64
	Description string
}

// seedCatalog is the built-in destination catalog used to answer
// search_destinations when no external POI provider is configured.
// Descriptions carry the vocabulary the semantic index matches against.
var seedCatalog = []Entry{
	{"Kyoto", "Japan", "UKY", 35.0116, 135.7681,
		"Ancient capital of Japan: Buddhist temples, Shinto shrines, zen gardens, geisha district, tea ceremony, cherry blossoms, traditional culture and food markets."},
	{"Tokyo", "Japan", "HND", 35.6762, 139.6503,
		"Japan's megacity: neon nightlife, sushi and ramen, anime culture, museums, imperial palace, shopping districts, day trips to Mount Fuji."},
	{"Paris", "France", "CDG", 48.8566, 2.3522,
		"City of light: world-class art museums, cafés, bakeries, the Eiffel Tower, Seine river walks, haute cuisine and romantic architecture."},
	{"Lisbon", "Portugal", "LIS", 38.7223, -9.1393,
		"Hilly coastal capital: tiled facades, tram rides, pastel de nata, fado music, nearby beach towns and surf along the Atlantic coast."},
	{"Porto", "Portugal", "OPO", 41.1579, -8.6291,
		"Riverside city of port wine cellars, azulejo churches, medieval lanes and seafood, gateway to the Douro valley vineyards."},
	{"Barcelona", "Spain", "BCN", 41.3874, 2.1686,
		"Gaudí architecture, Mediterranean beaches, tapas bars, gothic quarter, football and late-night street life."},
	{"Rome", "Italy", "FCO", 41.9028, 12.4964,
		"Open-air museum of antiquity: Colosseum, Roman Forum, Vatican museums, trattorias, piazzas, espresso and gelato."},
	{"Florence", "Italy", "FLR", 43.7696, 11.2558,
		"Renaissance art and architecture, Uffizi gallery, Tuscan food and wine, day trips to hill towns and vineyards."},
	{"Amsterdam", "Netherlands", "AMS", 52.3676, 4.9041,
		"Canal-ring city: cycling, world-class museums, brown cafés, flower markets and easy-going neighbourhood life."},
	{"Prague", "Czech Republic", "PRG", 50.0755, 14.4378,
		"Fairy-tale old town, castle district, astronomical clock, beer halls and affordable central-European charm."},
	{"Reykjavik", "Iceland", "KEF", 64.1466, -21.9426,
		"Gateway to glaciers, waterfalls, volcanoes, geothermal lagoons, northern lights and rugged adventure road trips."},
	{"Queenstown", "New Zealand", "ZQN", -45.0312, 168.6626,
		"Adventure capital: bungee jumping, hiking, skiing, jet boats, alpine lakes and dramatic fiordland scenery."},
	{"Bangkok", "Thailand", "BKK", 13.7563, 100.5018,
		"Street food paradise: golden temples, floating markets, rooftop bars, massage, and a hub for island hopping."},
	{"Chiang Mai", "Thailand", "CNX", 18.7883, 98.9853,
		"Laid-back northern Thai city: mountain temples, night bazaars, cooking classes, ethical elephant sanctuaries and jungle treks."},
	{"Marrakech", "Morocco", "RAK", 31.6295, -7.9811,
		"Labyrinthine medina, souks and spice markets, riads, desert excursions and Atlas mountain day trips."},
	{"Cusco", "Peru", "CUZ", -13.5319, -71.9675,
		"Andean hub for Machu Picchu: Inca ruins, colonial plazas, high-altitude treks and Peruvian cuisine."},
	{"Mexico City", "Mexico", "MEX", 19.4326, -99.1332,
		"Massive capital of murals, museums, tacos and mezcal, Aztec ruins, colourful neighbourhoods and day trips to pyramids."},
	{"New York", "United States", "JFK", 40.7128, -74.0060,
		"Skyscrapers, Broadway shows, world cuisine, Central Park, galleries and museums, nonstop urban energy."},
	{"Vancouver", "Canada", "YVR", 49.2827, -123.1207,
		"Mountains meeting the Pacific: seawall cycling, ski hills, rainforest parks, seafood and relaxed west-coast pace."},
	{"Cape Town", "South Africa", "CPT", -33.9249, 18.4241,
		"Table Mountain hikes, penguin beaches, winelands, street markets and dramatic cape scenery."},
	{"Sydney", "Australia", "SYD", -33.8688, 151.2093,
		"Harbour city: opera house, coastal walks, surf beaches, seafood and sunny outdoor living."},
	{"Istanbul", "Turkey", "IST", 41.0082, 28.9784,
		"Where continents meet: Hagia Sophia, grand bazaar, bosphorus ferries, hammams, kebabs and layers of empire."},
}
