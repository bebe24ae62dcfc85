package models

// DefaultItemsFor returns the default supply catalog for a weather
// event type, used when an alert is created without an explicit item
// list. Unknown event types get no defaults.
func DefaultItemsFor(weatherEvent string) []CreateItemRequest {
	items, ok := defaultItems[weatherEvent]
	if !ok {
		return nil
	}
	out := make([]CreateItemRequest, len(items))
	copy(out, items)
	return out
}

var defaultItems = map[string][]CreateItemRequest{
	"tornado": {
		{Name: "Emergency Radio", Description: "Battery-powered radio for weather updates", Quantity: 1},
		{Name: "First Aid Kit", Description: "Basic medical supplies", Quantity: 1},
		{Name: "Flashlight", Description: "Battery-powered flashlight", Quantity: 2},
		{Name: "Batteries", Description: "Various sizes for devices", Quantity: 10},
		{Name: "Water Bottles", Description: "1 gallon per person per day", Quantity: 5},
		{Name: "Non-perishable Food", Description: "3 days worth per person", Quantity: 3},
		{Name: "Emergency Blankets", Description: "Space blankets for warmth", Quantity: 4},
		{Name: "Whistle", Description: "For signaling help", Quantity: 1},
		{Name: "Dust Masks", Description: "For protection from debris", Quantity: 10},
		{Name: "Plastic Sheeting", Description: "For temporary shelter", Quantity: 1},
	},
	"flood": {
		{Name: "Sandbags", Description: "For flood protection", Quantity: 20},
		{Name: "Waterproof Boots", Description: "For walking in water", Quantity: 2},
		{Name: "Life Jackets", Description: "For water safety", Quantity: 2},
		{Name: "Waterproof Containers", Description: "For important documents", Quantity: 2},
		{Name: "Emergency Radio", Description: "Water-resistant radio", Quantity: 1},
		{Name: "First Aid Kit", Description: "Waterproof medical supplies", Quantity: 1},
		{Name: "Flashlight", Description: "Water-resistant flashlight", Quantity: 2},
		{Name: "Batteries", Description: "Water-resistant batteries", Quantity: 10},
		{Name: "Water Bottles", Description: "1 gallon per person per day", Quantity: 5},
		{Name: "Non-perishable Food", Description: "3 days worth per person", Quantity: 3},
	},
	"blizzard": {
		{Name: "Snow Shovel", Description: "For clearing snow", Quantity: 1},
		{Name: "Ice Scraper", Description: "For vehicle windows", Quantity: 2},
		{Name: "Winter Boots", Description: "Waterproof winter boots", Quantity: 2},
		{Name: "Winter Coats", Description: "Heavy winter coats", Quantity: 2},
		{Name: "Gloves", Description: "Waterproof gloves", Quantity: 4},
		{Name: "Hats", Description: "Warm winter hats", Quantity: 2},
		{Name: "Scarves", Description: "Winter scarves", Quantity: 2},
		{Name: "Emergency Radio", Description: "For weather updates", Quantity: 1},
		{Name: "First Aid Kit", Description: "For medical emergencies", Quantity: 1},
		{Name: "Flashlight", Description: "For visibility", Quantity: 2},
	},
	"polar_vortex": {
		{Name: "Space Heaters", Description: "Portable heaters", Quantity: 2},
		{Name: "Extra Blankets", Description: "Heavy winter blankets", Quantity: 4},
		{Name: "Winter Boots", Description: "Extreme cold boots", Quantity: 2},
		{Name: "Winter Coats", Description: "Heavy winter coats", Quantity: 2},
		{Name: "Gloves", Description: "Extreme cold gloves", Quantity: 4},
		{Name: "Hats", Description: "Warm winter hats", Quantity: 2},
		{Name: "Scarves", Description: "Winter scarves", Quantity: 2},
		{Name: "Emergency Radio", Description: "For weather updates", Quantity: 1},
		{Name: "First Aid Kit", Description: "For medical emergencies", Quantity: 1},
		{Name: "Flashlight", Description: "For visibility", Quantity: 2},
	},
	"fire": {
		{Name: "Fire Extinguisher", Description: "ABC type fire extinguisher", Quantity: 2},
		{Name: "Smoke Detectors", Description: "Battery-powered smoke detectors", Quantity: 3},
		{Name: "N95 Masks", Description: "For smoke protection", Quantity: 10},
		{Name: "Emergency Radio", Description: "For updates", Quantity: 1},
		{Name: "First Aid Kit", Description: "For medical emergencies", Quantity: 1},
		{Name: "Flashlight", Description: "For visibility", Quantity: 2},
		{Name: "Batteries", Description: "For devices", Quantity: 10},
		{Name: "Water Bottles", Description: "1 gallon per person per day", Quantity: 5},
		{Name: "Non-perishable Food", Description: "3 days worth per person", Quantity: 3},
		{Name: "Emergency Blankets", Description: "For warmth", Quantity: 4},
	},
}
