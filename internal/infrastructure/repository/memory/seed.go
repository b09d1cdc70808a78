package memory

import (
	"github.com/racha-hq/racha-manager/internal/domain/participant"
)

const (
	TenantRachaKamis  = "racha-jakarta-kamis"
	TenantRachaMinggu = "racha-bandung-minggu"
)

// SeedMembers is a realistic Thursday-night roster: two keepers and enough
// outfielders for two teams of seven.
func SeedMembers() []participant.Member {
	return []participant.Member{
		{ID: "mbr-andri", Name: "Andritany Pratama", Nickname: "Andri", Position: participant.PositionGoalkeeper, IsMonthlyPayer: true},
		{ID: "mbr-teja", Name: "Teja Saputra", Nickname: "Teja", Position: participant.PositionGoalkeeper},
		{ID: "mbr-hansamu", Name: "Hansamu Wijaya", Nickname: "Hansamu", Position: participant.PositionDefender, IsMonthlyPayer: true},
		{ID: "mbr-ricky", Name: "Ricky Firmansyah", Nickname: "Ricky", Position: participant.PositionDefender, IsMonthlyPayer: true},
		{ID: "mbr-nick", Name: "Nick Hutapea", Nickname: "Nick", Position: participant.PositionDefender},
		{ID: "mbr-dusan", Name: "Dusan Santoso", Nickname: "Dusan", Position: participant.PositionDefender},
		{ID: "mbr-klok", Name: "Marc Kurniawan", Nickname: "Klok", Position: participant.PositionMidfielder, IsMonthlyPayer: true},
		{ID: "mbr-gajos", Name: "Maciej Gunawan", Nickname: "Gajos", Position: participant.PositionMidfielder},
		{ID: "mbr-bruno", Name: "Bruno Siregar", Nickname: "Bruno", Position: participant.PositionMidfielder, IsMonthlyPayer: true},
		{ID: "mbr-eber", Name: "Eber Nugroho", Nickname: "Eber", Position: participant.PositionMidfielder},
		{ID: "mbr-gustavo", Name: "Gustavo Ramadhan", Nickname: "Gustavo", Position: participant.PositionForward, IsMonthlyPayer: true},
		{ID: "mbr-david", Name: "David Simanjuntak", Nickname: "David", Position: participant.PositionForward},
		{ID: "mbr-ilija", Name: "Ilija Halim", Nickname: "Ilija", Position: participant.PositionForward},
		{ID: "mbr-ezra", Name: "Ezra Mahendra", Nickname: "Ezra", Position: participant.PositionForward},
	}
}

func SeedStarRatings() map[string]int {
	return map[string]int{
		"mbr-andri":   4,
		"mbr-teja":    3,
		"mbr-hansamu": 4,
		"mbr-ricky":   2,
		"mbr-nick":    3,
		"mbr-dusan":   2,
		"mbr-klok":    5,
		"mbr-gajos":   4,
		"mbr-bruno":   3,
		"mbr-eber":    3,
		"mbr-gustavo": 5,
		"mbr-david":   4,
		"mbr-ilija":   2,
		"mbr-ezra":    1,
	}
}

func SeedPerformance() map[string]participant.Performance {
	return map[string]participant.Performance{
		"mbr-andri":   {RankingPoints: 0.82, WinRate: 0.64, GoalsPerMatch: 0.02, AssistsPerMatch: 0.05},
		"mbr-teja":    {RankingPoints: 0.61, WinRate: 0.48, GoalsPerMatch: 0.01, AssistsPerMatch: 0.03},
		"mbr-hansamu": {RankingPoints: 0.74, WinRate: 0.58, GoalsPerMatch: 0.10, AssistsPerMatch: 0.12},
		"mbr-ricky":   {RankingPoints: 0.45, WinRate: 0.41, GoalsPerMatch: 0.06, AssistsPerMatch: 0.09},
		"mbr-nick":    {RankingPoints: 0.66, WinRate: 0.55, GoalsPerMatch: 0.08, AssistsPerMatch: 0.07},
		"mbr-dusan":   {RankingPoints: 0.39, WinRate: 0.36, GoalsPerMatch: 0.04, AssistsPerMatch: 0.05},
		"mbr-klok":    {RankingPoints: 0.91, WinRate: 0.71, GoalsPerMatch: 0.38, AssistsPerMatch: 0.42},
		"mbr-gajos":   {RankingPoints: 0.78, WinRate: 0.62, GoalsPerMatch: 0.29, AssistsPerMatch: 0.35},
		"mbr-bruno":   {RankingPoints: 0.57, WinRate: 0.49, GoalsPerMatch: 0.22, AssistsPerMatch: 0.28},
		"mbr-eber":    {RankingPoints: 0.52, WinRate: 0.46, GoalsPerMatch: 0.18, AssistsPerMatch: 0.31},
		"mbr-gustavo": {RankingPoints: 0.88, WinRate: 0.67, GoalsPerMatch: 0.74, AssistsPerMatch: 0.21},
		"mbr-david":   {RankingPoints: 0.72, WinRate: 0.59, GoalsPerMatch: 0.61, AssistsPerMatch: 0.17},
		"mbr-ilija":   {RankingPoints: 0.41, WinRate: 0.38, GoalsPerMatch: 0.33, AssistsPerMatch: 0.10},
		"mbr-ezra":    {RankingPoints: 0.28, WinRate: 0.31, GoalsPerMatch: 0.19, AssistsPerMatch: 0.08},
	}
}

// SeedDirectory loads the demo roster into both seed tenants.
func SeedDirectory(directory *ParticipantDirectory) {
	for _, tenantID := range []string{TenantRachaKamis, TenantRachaMinggu} {
		directory.SetMembers(tenantID, SeedMembers())
		for id, stars := range SeedStarRatings() {
			directory.SetStarRating(tenantID, id, stars)
		}
		for id, perf := range SeedPerformance() {
			directory.SetPerformance(tenantID, id, perf)
		}
	}
}
