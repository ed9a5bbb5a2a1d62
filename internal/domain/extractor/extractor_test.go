package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_FullQuery(t *testing.T) {
	e := Extract("45-year-old male with emergency heart surgery, Rs. 50,000 claim")

	require.NotNil(t, e.Age)
	assert.Equal(t, 45, *e.Age)
	assert.Equal(t, "male", e.Gender)
	assert.Equal(t, "emergency", e.Urgency)
	require.NotNil(t, e.Amount)
	assert.Equal(t, 50000, *e.Amount)
	assert.Contains(t, e.MedicalProcedures, "surgery")
	assert.Contains(t, e.MedicalProcedures, "heart surgery")
	assert.Empty(t, e.Conditions)
	assert.Empty(t, e.Location)
}

func TestExtract_NoMatches(t *testing.T) {
	e := Extract("what does my policy say")

	assert.Empty(t, e.MedicalProcedures)
	assert.Empty(t, e.Conditions)
	assert.Nil(t, e.Age)
	assert.Nil(t, e.Amount)
	assert.Empty(t, e.Gender)
	assert.Empty(t, e.Urgency)
}

func TestExtract_Age(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"46M, 46 year old, knee surgery", 46},
		{"patient is 70 years old", 70},
		{"32 yr old woman", 32},
		{"Age: 61, cataract", 61},
		{"age 8 child with fracture", 8},
	}
	for _, tt := range tests {
		e := Extract(tt.query)
		require.NotNil(t, e.Age, tt.query)
		assert.Equal(t, tt.want, *e.Age, tt.query)
	}
}

func TestExtract_Gender(t *testing.T) {
	assert.Equal(t, "female", Extract("female patient").Gender)
	assert.Equal(t, "female", Extract("male and female twins").Gender)
	assert.Equal(t, "male", Extract("Male, 30").Gender)
	assert.Empty(t, Extract("child, 4").Gender)
}

func TestExtract_UrgencyFirstInListWins(t *testing.T) {
	// List order decides, not position in the query.
	assert.Equal(t, "urgent", Extract("critical and urgent case").Urgency)
	assert.Equal(t, "emergency", Extract("ambulance needed in an emergency").Urgency)
	assert.Equal(t, "ambulance", Extract("air ambulance transfer").Urgency)
}

func TestExtract_Amount(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"claim of ₹80,000 for surgery", 80000},
		{"bill was 1,20,000 INR", 120000},
		{"INR 5000 for consultation", 5000},
		{"paid rs75000", 75000},
		{"25000 Rs for dialysis", 25000},
	}
	for _, tt := range tests {
		e := Extract(tt.query)
		require.NotNil(t, e.Amount, tt.query)
		assert.Equal(t, tt.want, *e.Amount, tt.query)
	}
}

func TestExtract_AmountIgnoresBareNumbers(t *testing.T) {
	assert.Nil(t, Extract("stayed 3 days after 2 hours of surgery").Amount)
}

func TestExtract_Vocabularies(t *testing.T) {
	e := Extract("Chemotherapy for cancer after a road accident with fracture")

	assert.Equal(t, []string{"therapy", "chemotherapy"}, e.MedicalProcedures)
	assert.Equal(t, []string{"cancer", "accident", "fracture"}, e.Conditions)
}
