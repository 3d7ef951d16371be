package item

// BodyType is the fixed body-type vocabulary used by the outfit synthesizer.
type BodyType string

const (
	BodySlim     BodyType = "slim"
	BodyAverage  BodyType = "average"
	BodyAthletic BodyType = "athletic"
	BodyCurvy    BodyType = "curvy"
	BodyBroad    BodyType = "broad"
	BodyPetite   BodyType = "petite"
)

// Phrase maps the body type to an English adjectival phrase for AI prompts.
func (b BodyType) Phrase() string {
	switch b {
	case BodySlim:
		return "slim and slender build"
	case BodyAverage:
		return "average build"
	case BodyAthletic:
		return "athletic, toned build"
	case BodyCurvy:
		return "curvy figure"
	case BodyBroad:
		return "broad-shouldered build"
	case BodyPetite:
		return "petite frame"
	}
	return "average build"
}

// Profile describes the person an outfit is generated for.
type Profile struct {
	Gender   string   `json:"gender"` // "male" or "female"
	BodyType BodyType `json:"bodyType"`
	Height   int      `json:"height,omitempty"` // cm
	Weight   int      `json:"weight,omitempty"` // kg
}

// GenderNoun returns the English noun used in generation prompts.
func (p Profile) GenderNoun() string {
	if p.Gender == "male" {
		return "man"
	}
	return "woman"
}

// OutfitArtifact is the output of the outfit synthesizer: either a remote
// AI-generated image URL or a locally rendered PNG as a data URI. Callers
// cannot tell the two apart from the type alone.
type OutfitArtifact struct {
	ImageDataURI string `json:"imageDataUri"`
}
