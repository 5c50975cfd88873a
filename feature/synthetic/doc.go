// Package synthetic generates processor and ledger feeds with injected noise.
//
// The generator draws every random value from an injected *rand.Rand, so a fixed
// seed reproduces the same feeds. Noise mirrors what reconciliation has to cope
// with: duplicated processor rows, transactions never posted, ledger postings
// carrying an EXT-prefixed external id, small amount drift, posting dates pushed
// past the window and duplicated ledger postings.
package synthetic
