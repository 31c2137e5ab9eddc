package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// identityService simulates the three roles of a self-sovereign identity
// exchange: issuing credentials, generating predicate proofs over their
// attributes, and verifying those proofs. State is session-scoped and
// lives in memory; nothing here is cryptographically meaningful.
type identityService struct {
	mu          sync.Mutex
	credentials map[string]Credential
	proofs      map[string]IdentityProof
}

func newIdentityService() *identityService {
	return &identityService{
		credentials: make(map[string]Credential),
		proofs:      make(map[string]IdentityProof),
	}
}

// IssueCredential signs (synthetically) a credential over the given
// attributes.
func (svc *identityService) IssueCredential(issuer, subject string, attributes []IdentityAttribute) Credential {
	cred := Credential{
		ID:         fmt.Sprintf("vc-%.8s", uuid.NewString()),
		Issuer:     issuer,
		Subject:    subject,
		Attributes: attributes,
		Signature:  fmt.Sprintf("sig_rsa_%.16s", uuid.NewString()),
		IssuedAt:   time.Now().UnixMilli(),
	}

	svc.mu.Lock()
	svc.credentials[cred.ID] = cred
	svc.mu.Unlock()
	return cred
}

// evalPredicate applies op against a credential attribute value. Numeric
// comparisons coerce both sides to float64; eq also works on strings.
func evalPredicate(attrValue any, op string, target any) (bool, error) {
	if op == "eq" {
		if sa, ok := attrValue.(string); ok {
			if sb, ok := target.(string); ok {
				return sa == sb, nil
			}
		}
	}

	a, aok := toFloat(attrValue)
	b, bok := toFloat(target)
	if !aok || !bok {
		return false, fmt.Errorf("predicate %q needs comparable values", op)
	}

	switch op {
	case "gt":
		return a > b, nil
	case "gte":
		return a >= b, nil
	case "lt":
		return a < b, nil
	case "lte":
		return a <= b, nil
	case "eq":
		return a == b, nil
	default:
		return false, fmt.Errorf("unknown predicate operator %q", op)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// GenerateProof checks the predicate against the named attribute and, if
// it holds, fabricates a proof attesting to it without the value.
func (svc *identityService) GenerateProof(credentialID, attribute, op string, value any) (IdentityProof, error) {
	svc.mu.Lock()
	cred, ok := svc.credentials[credentialID]
	svc.mu.Unlock()
	if !ok {
		return IdentityProof{}, ErrNotFound
	}

	var attrValue any
	found := false
	for _, a := range cred.Attributes {
		if a.Name == attribute {
			attrValue = a.Value
			found = true
			break
		}
	}
	if !found {
		return IdentityProof{}, ErrAttributeNotFound
	}

	holds, err := evalPredicate(attrValue, op, value)
	if err != nil {
		return IdentityProof{}, err
	}
	if !holds {
		return IdentityProof{}, ErrPredicateNotMet
	}

	proofID := fmt.Sprintf("zkp-%.8s", uuid.NewString())
	digest := sha256.Sum256([]byte(proofID + credentialID + fmt.Sprint(time.Now().UnixNano())))
	proof := IdentityProof{
		ProofID:      proofID,
		CredentialID: credentialID,
		Predicate:    strings.TrimSpace(fmt.Sprintf("%s %s %v", attribute, op, value)),
		ProofHash:    "0x" + hex.EncodeToString(digest[:]),
		Timestamp:    time.Now().UnixMilli(),
		IsValid:      true,
	}

	svc.mu.Lock()
	svc.proofs[proof.ProofID] = proof
	svc.mu.Unlock()
	return proof, nil
}

// VerifyProof reports whether a previously generated proof is valid.
func (svc *identityService) VerifyProof(proofID string) (bool, error) {
	svc.mu.Lock()
	proof, ok := svc.proofs[proofID]
	svc.mu.Unlock()
	if !ok {
		return false, ErrNotFound
	}
	return proof.IsValid, nil
}

type issueCredentialRequest struct {
	Issuer     string              `json:"issuer" binding:"required"`
	Subject    string              `json:"subject" binding:"required"`
	Attributes []IdentityAttribute `json:"attributes" binding:"required"`
}

// issueCredential issues a simulated verifiable credential.
func (s *server) issueCredential(c *gin.Context) {
	var req issueCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, s.identity.IssueCredential(req.Issuer, req.Subject, req.Attributes))
}

type generateProofRequest struct {
	CredentialID string `json:"credentialId" binding:"required"`
	Attribute    string `json:"attribute" binding:"required"`
	Op           string `json:"op" binding:"required"`
	Value        any    `json:"value" binding:"required"`
}

// generateProof generates a predicate proof over a credential attribute.
func (s *server) generateProof(c *gin.Context) {
	var req generateProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proof, err := s.identity.GenerateProof(req.CredentialID, req.Attribute, req.Op, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrAttributeNotFound), errors.Is(err, ErrPredicateNotMet):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, proof)
}

type verifyProofRequest struct {
	ProofID string `json:"proofId" binding:"required"`
}

// verifyProof verifies a previously generated proof.
func (s *server) verifyProof(c *gin.Context) {
	var req verifyProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	valid, err := s.identity.VerifyProof(req.ProofID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proofId": req.ProofID, "isValid": valid})
}
