package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID         string   `dynamodbav:"userId" json:"userId"`
	Username       string   `dynamodbav:"username" json:"username"`
	Name           string   `dynamodbav:"name" json:"name"`
	Email          string   `dynamodbav:"email" json:"email"`
	Headline       string   `dynamodbav:"headline,omitempty" json:"headline,omitempty"`
	About          string   `dynamodbav:"about,omitempty" json:"about,omitempty"`
	Location       string   `dynamodbav:"location,omitempty" json:"location,omitempty"`
	ProfilePicture string   `dynamodbav:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	BannerImg      string   `dynamodbav:"bannerImg,omitempty" json:"bannerImg,omitempty"`
	Skills         []string `dynamodbav:"skills,omitempty" json:"skills,omitempty"`
	Connections    []string `dynamodbav:"connections,stringset,omitempty" json:"connections,omitempty"`
}

// PublicProfile is the subset of profile fields embedded in responses
// about other users (connection lists, notifications, request senders).
type PublicProfile struct {
	UserID         string `dynamodbav:"userId" json:"userId"`
	Username       string `dynamodbav:"username" json:"username"`
	Name           string `dynamodbav:"name" json:"name"`
	ProfilePicture string `dynamodbav:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Headline       string `dynamodbav:"headline,omitempty" json:"headline,omitempty"`
}

// Public projects the profile down to its shareable subset.
func (u UserProfile) Public() PublicProfile {
	return PublicProfile{
		UserID:         u.UserID,
		Username:       u.Username,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		Headline:       u.Headline,
	}
}

// IsConnectedTo reports whether otherID is in the profile's connections set.
func (u UserProfile) IsConnectedTo(otherID string) bool {
	for _, id := range u.Connections {
		if id == otherID {
			return true
		}
	}
	return false
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"

// UsernameIndex is the GSI used to look profiles up by username
const UsernameIndex = "username-index"
