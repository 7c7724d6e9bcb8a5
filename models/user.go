package models

// User is the user record this core reads and increments. Registration and
// password handling live in the auth service; the password hash is never
// touched here.
type User struct {
	Username       string `dynamodbav:"username" json:"username"`
	ProfilePicture string `dynamodbav:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Coins          int    `dynamodbav:"coins" json:"coins"`
	Wins           int    `dynamodbav:"wins" json:"wins"`
	Losses         int    `dynamodbav:"losses" json:"losses"`
	Draws          int    `dynamodbav:"draws" json:"draws"`
}

// UsersTable is the DynamoDB table name for user records
const UsersTable = "ColorGridUsers"
