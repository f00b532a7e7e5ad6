package models

import "time"

// FoodEntry is one logged food item.
type FoodEntry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Calories    float64   `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	Date        time.Time `json:"date"`
	ServingSize string    `json:"servingSize,omitempty"`

	// ImageURI is a local file to upload before the entry is stored;
	// ImageURL is where it ended up.
	ImageURI   string   `json:"imageUri,omitempty"`
	ImageURL   string   `json:"imageUrl,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// NutritionTotals sums calories and macros over a set of entries.
type NutritionTotals struct {
	Date     string  `json:"date"`
	Entries  int     `json:"entries"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
