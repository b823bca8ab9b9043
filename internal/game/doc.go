// Package game holds the mutable position of a two-player pile clearing game
// and the rules that change it.
//
// # Model
//
// There are 36 cards (see package cards). At any time each live card is in
// exactly one hand, one table pile or the draw pile; removal cards discard
// whole piles. A pile is a chain that starts at its head card and continues to
// its face card. COVER cards extend the chain, so the face is the last card
// covered and it decides which removal cards match the pile. The game is lost
// once MaxPiles piles are on the table and won when both hands are empty.
//
// # Apply and Undo
//
// State stores hands and piles as index-linked chains in fixed arrays, so a
// move is a handful of link assignments and a State can be copied by value:
//
//	moves := s.LegalMoves(player, buf)
//	u := s.Apply(player, moves[0])
//	// ... explore ...
//	s.Undo(u)
//
// Undo restores the exact prior state, including the bookkeeping aggregates
// (cards left, color/kind matrix, remover flags, cover count, pile count)
// that Verify recomputes from scratch. Play is the validated variant used on
// the authoritative game; it also marks cards that change hands as open.
package game
