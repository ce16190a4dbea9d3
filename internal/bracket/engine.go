package bracket

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
)

var (
	ErrInsufficientParticipants = errors.New("insufficient participants")
	ErrDuplicateParticipant     = errors.New("duplicate participant")
	ErrInvalidMatch             = errors.New("invalid match")
	ErrInvalidWinner            = errors.New("invalid winner")
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// Seed builds round 1 from a randomly permuted roster. An odd roster gives
// its last participant a bye, which is created first and is already decided.
func Seed(participants []uuid.UUID, shuffler Shuffler) (Bracket, error) {
	if len(participants) < 2 {
		return Bracket{}, fmt.Errorf("%w: got %d, need at least 2", ErrInsufficientParticipants, len(participants))
	}

	seen := make(map[uuid.UUID]bool, len(participants))
	for _, id := range participants {
		if seen[id] {
			return Bracket{}, fmt.Errorf("%w: %s", ErrDuplicateParticipant, id)
		}
		seen[id] = true
	}

	if shuffler == nil {
		shuffler = globalShuffler{}
	}

	players := slices.Clone(participants)
	// Fisher-Yates in both math/rand/v2 implementations
	shuffler.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})

	matches := make([]Match, 0, (len(players)+1)/2)
	number := 1

	if len(players)%2 != 0 {
		lucky := players[len(players)-1]
		players = players[:len(players)-1]
		matches = append(matches, newByeMatch(1, number, lucky))
		number++
	}

	for i := 0; i+1 < len(players); i += 2 {
		matches = append(matches, newMatch(1, number, players[i], players[i+1]))
		number++
	}

	return Bracket{Matches: matches}, nil
}

// RecordWinner decides a match and, when that completes its round, either
// finishes the bracket or appends the next round. The input bracket is never
// modified; on error it is returned as is.
func RecordWinner(b Bracket, matchID, winnerID uuid.UUID) (Bracket, error) {
	i := b.indexOf(matchID)
	if i < 0 {
		return b, fmt.Errorf("%w: match %s not found", ErrInvalidMatch, matchID)
	}
	if b.Matches[i].Decided() {
		return b, fmt.Errorf("%w: match %s is already decided", ErrInvalidMatch, matchID)
	}
	if !b.Matches[i].Has(winnerID) {
		return b, fmt.Errorf("%w: %s is not part of match %s", ErrInvalidWinner, winnerID, matchID)
	}

	next := b.Clone()
	winner := winnerID
	next.Matches[i].Winner = &winner

	currentRound := next.Matches[i].Round
	roundMatches := next.Round(currentRound)

	winners := make([]uuid.UUID, 0, len(roundMatches))
	for _, m := range roundMatches {
		if !m.Decided() {
			// Awaiting the rest of the round
			return next, nil
		}
		winners = append(winners, *m.Winner)
	}

	if len(winners) == 1 {
		next.Finished = true
		return next, nil
	}

	next.Matches = append(next.Matches, pairRound(currentRound+1, winners)...)
	return next, nil
}

// pairRound pairs winners in order; an odd one out gets a trailing bye.
func pairRound(round int, winners []uuid.UUID) []Match {
	matches := make([]Match, 0, (len(winners)+1)/2)
	number := 1
	for i := 0; i < len(winners); i += 2 {
		if i+1 < len(winners) {
			matches = append(matches, newMatch(round, number, winners[i], winners[i+1]))
		} else {
			matches = append(matches, newByeMatch(round, number, winners[i]))
		}
		number++
	}
	return matches
}

func newMatch(round, number int, p1, p2 uuid.UUID) Match {
	return Match{
		ID:     uuid.New(),
		Round:  round,
		Number: number,
		Slots:  [2]*uuid.UUID{&p1, &p2},
	}
}

func newByeMatch(round, number int, p uuid.UUID) Match {
	winner := p
	return Match{
		ID:     uuid.New(),
		Round:  round,
		Number: number,
		Slots:  [2]*uuid.UUID{&p, nil},
		Winner: &winner,
		IsBye:  true,
	}
}
