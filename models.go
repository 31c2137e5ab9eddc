package main

// JournalEntry represents a single private journal entry.
type JournalEntry struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	MoodScore int    `json:"moodScore"`
	MoodLabel string `json:"moodLabel"` // Positive | Negative | Neutral
	ImageData string `json:"imageData,omitempty"`
	ProofTag  string `json:"proofTag"`
	AgentTxID string `json:"agentTxId,omitempty"`
}

// Transaction represents a financial transaction tracked by the user.
type Transaction struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Timestamp   int64   `json:"timestamp"`
	ProofTag    string  `json:"proofTag"`
}

// Habit represents a recurring practice and its completion streak.
type Habit struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Streak        int     `json:"streak"`
	LastCompleted *int64  `json:"lastCompleted"`
	History       []int64 `json:"history"`
	ProofTag      string  `json:"proofTag"`
}

// LedgerEntry is one line of the simulated wallet ledger.
type LedgerEntry struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"` // Fee | Deposit | Reward | Transfer
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Timestamp   int64   `json:"timestamp"`
	Hash        string  `json:"hash"`
}

// WalletState is the cached wallet balance plus its transaction history.
type WalletState struct {
	Balance      float64       `json:"balance"`
	Transactions []LedgerEntry `json:"transactions"`
	Address      string        `json:"address"`
}

// Insight is a human-readable observation produced by an agent.
type Insight struct {
	Type      string `json:"type"` // Warning | Success | Info | Motivation | Streak | Suggestion
	Message   string `json:"message"`
	AgentTxID string `json:"agentTxId,omitempty"`
}

// Bounty is a research study users can contribute anonymized data to.
type Bounty struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Reward       float64 `json:"reward"`
	Criteria     string  `json:"criteria"`
	Participants int     `json:"participants"`
}

// GhostMessage is an anonymous post on the echo feed.
type GhostMessage struct {
	ID               string   `json:"id"`
	Timestamp        int64    `json:"timestamp"`
	Content          string   `json:"content"`
	EncryptedContent string   `json:"encryptedContent"`
	Vibes            int      `json:"vibes"`
	Tags             []string `json:"tags"`
}

// EchoFeed is the echo feed's full state.
type EchoFeed struct {
	Messages   []GhostMessage `json:"messages"`
	TotalVibes int            `json:"totalVibes"`
}

// IdentityAttribute is one attribute carried by a credential.
type IdentityAttribute struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Type  string `json:"type"` // date | number | string
}

// Credential is an issued verifiable credential (simulated signature).
type Credential struct {
	ID         string              `json:"id"`
	Issuer     string              `json:"issuer"`
	Subject    string              `json:"subject"`
	Attributes []IdentityAttribute `json:"attributes"`
	Signature  string              `json:"signature"`
	IssuedAt   int64               `json:"issuedAt"`
}

// IdentityProof attests that a predicate holds over a credential attribute
// without revealing the attribute value.
type IdentityProof struct {
	ProofID      string `json:"proofId"`
	CredentialID string `json:"credentialId"`
	Predicate    string `json:"predicate"`
	ProofHash    string `json:"proofHash"`
	Timestamp    int64  `json:"timestamp"`
	IsValid      bool   `json:"isValid"`
}

// SoulState is the wellness avatar's evolving state.
type SoulState struct {
	Level      int      `json:"level"`
	XP         int      `json:"xp"`
	Traits     []string `json:"traits"`
	Aura       string   `json:"aura"` // Neutral | Zen | Energetic | Tired
	LastUpdate int64    `json:"lastUpdate"`
}

// WellnessStats aggregates cross-domain signals used to evolve the soul.
type WellnessStats struct {
	Sleep      float64 `json:"sleep"`
	Meditation int     `json:"meditation"`
	Savings    float64 `json:"savings"`
}

func (e JournalEntry) recordID() string { return e.ID }
func (t Transaction) recordID() string  { return t.ID }
func (h Habit) recordID() string        { return h.ID }
