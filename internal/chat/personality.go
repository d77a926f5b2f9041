// ABOUTME: The closed 16-value personality enumeration and its validity check.
// ABOUTME: Adding a personality is a data change here, never a structural one.

package chat

// Personality is one of the 16 MBTI personality codes. The set is closed:
// every agent carries exactly one of these tags for its whole lifetime.
type Personality string

const (
	INTJ Personality = "INTJ"
	INTP Personality = "INTP"
	ENTJ Personality = "ENTJ"
	ENTP Personality = "ENTP"
	INFJ Personality = "INFJ"
	INFP Personality = "INFP"
	ENFJ Personality = "ENFJ"
	ENFP Personality = "ENFP"
	ISTJ Personality = "ISTJ"
	ISFJ Personality = "ISFJ"
	ESTJ Personality = "ESTJ"
	ESFJ Personality = "ESFJ"
	ISTP Personality = "ISTP"
	ISFP Personality = "ISFP"
	ESTP Personality = "ESTP"
	ESFP Personality = "ESFP"
)

// AllPersonalities lists every valid personality in display order.
var AllPersonalities = []Personality{
	INTJ, INTP, ENTJ, ENTP,
	INFJ, INFP, ENFJ, ENFP,
	ISTJ, ISFJ, ESTJ, ESFJ,
	ISTP, ISFP, ESTP, ESFP,
}

// Valid reports whether p is one of the 16 known personality codes.
func (p Personality) Valid() bool {
	switch p {
	case INTJ, INTP, ENTJ, ENTP,
		INFJ, INFP, ENFJ, ENFP,
		ISTJ, ISFJ, ESTJ, ESFJ,
		ISTP, ISFP, ESTP, ESFP:
		return true
	}
	return false
}

func (p Personality) String() string { return string(p) }
