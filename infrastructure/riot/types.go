package riot

import "fmt"

// Account identifies a Riot account across games.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// LeagueEntry is one ranked queue standing from league-v4.
type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	HotStreak    bool   `json:"hotStreak"`
}

// WinRate returns the percentage of games won in this queue.
func (e LeagueEntry) WinRate() float64 {
	total := e.Wins + e.Losses
	if total == 0 {
		return 0
	}
	return float64(e.Wins) / float64(total) * 100
}

// String renders e.g. "GOLD II 42 LP".
func (e LeagueEntry) String() string {
	switch e.Tier {
	case "MASTER", "GRANDMASTER", "CHALLENGER":
		return fmt.Sprintf("%s %d LP", e.Tier, e.LeaguePoints)
	}
	return fmt.Sprintf("%s %s %d LP", e.Tier, e.Rank, e.LeaguePoints)
}

// Queue display names for the ranked queues the bot reports.
var queueNames = map[string]string{
	"RANKED_SOLO_5x5": "Solo/Duo",
	"RANKED_FLEX_SR":  "Flex",
	"RANKED_TFT":      "TFT",
}

// QueueName returns a display name for a queue type.
func QueueName(queueType string) string {
	if name, ok := queueNames[queueType]; ok {
		return name
	}
	return queueType
}

// RankSummary is what a rank lookup returns.
type RankSummary struct {
	Account Account
	Entries []LeagueEntry
}
