package achievement

// DefaultCatalog is seeded into the achievements table by the seed command.
// Keys are stable; titles and descriptions may change between seeds.
var DefaultCatalog = []Achievement{
	{Key: "first_journey", Title: "First Steps", Icon: "🌱", Description: "Log your first journey", ThresholdType: ThresholdJourneyCount, ThresholdValue: 1},
	{Key: "five_journeys", Title: "Getting Going", Icon: "🚶", Description: "Log 5 journeys", ThresholdType: ThresholdJourneyCount, ThresholdValue: 5},
	{Key: "twenty_journeys", Title: "Commuter", Icon: "🗺️", Description: "Log 20 journeys", ThresholdType: ThresholdJourneyCount, ThresholdValue: 20},
	{Key: "hundred_journeys", Title: "Road Veteran", Icon: "🏅", Description: "Log 100 journeys", ThresholdType: ThresholdJourneyCount, ThresholdValue: 100},
	{Key: "co2_1kg", Title: "Kilo Saver", Icon: "🍃", Description: "Save 1 kg of CO₂ versus driving", ThresholdType: ThresholdCO2SavedG, ThresholdValue: 1000},
	{Key: "co2_10kg", Title: "Climate Ally", Icon: "🌍", Description: "Save 10 kg of CO₂ versus driving", ThresholdType: ThresholdCO2SavedG, ThresholdValue: 10000},
	{Key: "co2_100kg", Title: "Carbon Crusher", Icon: "🌳", Description: "Save 100 kg of CO₂ versus driving", ThresholdType: ThresholdCO2SavedG, ThresholdValue: 100000},
	{Key: "calories_500", Title: "Warmed Up", Icon: "🔥", Description: "Burn 500 kcal on the move", ThresholdType: ThresholdCaloriesKcal, ThresholdValue: 500},
	{Key: "calories_5000", Title: "Calorie Torch", Icon: "💪", Description: "Burn 5,000 kcal on the move", ThresholdType: ThresholdCaloriesKcal, ThresholdValue: 5000},
	{Key: "streak_3", Title: "On a Roll", Icon: "⚡", Description: "Travel sustainably 3 days in a row", ThresholdType: ThresholdStreak, ThresholdValue: 3},
	{Key: "streak_7", Title: "Week Warrior", Icon: "📅", Description: "Travel sustainably 7 days in a row", ThresholdType: ThresholdStreak, ThresholdValue: 7},
	{Key: "streak_30", Title: "Habit Formed", Icon: "🏆", Description: "Travel sustainably 30 days in a row", ThresholdType: ThresholdStreak, ThresholdValue: 30},
}
