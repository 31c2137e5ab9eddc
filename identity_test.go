package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ageCredential(svc *identityService, age float64) Credential {
	return svc.IssueCredential("Government ID Service", "user-1", []IdentityAttribute{
		{Name: "age", Value: age, Type: "number"},
		{Name: "country", Value: "PT", Type: "string"},
	})
}

func TestIssueCredential(t *testing.T) {
	svc := newIdentityService()

	cred := ageCredential(svc, 27)
	assert.Contains(t, cred.ID, "vc-")
	assert.Contains(t, cred.Signature, "sig_rsa_")
	assert.Equal(t, "Government ID Service", cred.Issuer)
	assert.NotZero(t, cred.IssuedAt)
}

func TestGenerateProofPredicateHolds(t *testing.T) {
	svc := newIdentityService()
	cred := ageCredential(svc, 27)

	proof, err := svc.GenerateProof(cred.ID, "age", "gte", 18.0)
	require.NoError(t, err)

	assert.Contains(t, proof.ProofID, "zkp-")
	assert.Equal(t, cred.ID, proof.CredentialID)
	assert.Equal(t, "age gte 18", proof.Predicate)
	assert.True(t, proof.IsValid)
	assert.Len(t, proof.ProofHash, 66, "0x plus 64 hex chars")
}

func TestGenerateProofPredicateNotMet(t *testing.T) {
	svc := newIdentityService()
	cred := ageCredential(svc, 16)

	_, err := svc.GenerateProof(cred.ID, "age", "gte", 18.0)
	assert.ErrorIs(t, err, ErrPredicateNotMet)
}

func TestGenerateProofMissingAttribute(t *testing.T) {
	svc := newIdentityService()
	cred := ageCredential(svc, 27)

	_, err := svc.GenerateProof(cred.ID, "income", "gt", 1000.0)
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestGenerateProofUnknownCredential(t *testing.T) {
	svc := newIdentityService()

	_, err := svc.GenerateProof("vc-missing", "age", "gte", 18.0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStringEquality(t *testing.T) {
	svc := newIdentityService()
	cred := ageCredential(svc, 27)

	proof, err := svc.GenerateProof(cred.ID, "country", "eq", "PT")
	require.NoError(t, err)
	assert.True(t, proof.IsValid)

	_, err = svc.GenerateProof(cred.ID, "country", "eq", "ES")
	assert.ErrorIs(t, err, ErrPredicateNotMet)
}

func TestVerifyProof(t *testing.T) {
	svc := newIdentityService()
	cred := ageCredential(svc, 27)

	proof, err := svc.GenerateProof(cred.ID, "age", "gt", 21.0)
	require.NoError(t, err)

	valid, err := svc.VerifyProof(proof.ProofID)
	require.NoError(t, err)
	assert.True(t, valid)

	_, err = svc.VerifyProof("zkp-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
