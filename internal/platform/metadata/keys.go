package metadata

// Keys for the 'key' column of the 'metadata' table.
const (
	// LastScheduledGameDateKey stores the YYYY-MM-DD date of the last game
	// created or confirmed by the midnight scheduler.
	LastScheduledGameDateKey = "last_scheduled_game_date"

	// FallbackWordsSeededKey records that the curated fallback list has been
	// imported into the words table at least once.
	FallbackWordsSeededKey = "fallback_words_seeded"
)
