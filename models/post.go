package models

// Comment is one entry in a post's comment list
type Comment struct {
	CommentID string `dynamodbav:"commentId" json:"commentId"`
	UserID    string `dynamodbav:"userId" json:"userId"`
	Content   string `dynamodbav:"content" json:"content"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// Post defines the structure for posts. Likes is a string set of user ids so
// it can be mutated with atomic ADD/DELETE expressions instead of
// whole-document writes.
type Post struct {
	PostID    string    `dynamodbav:"postId" json:"postId"`
	AuthorID  string    `dynamodbav:"authorId" json:"authorId"`
	Content   string    `dynamodbav:"content" json:"content"`
	Image     string    `dynamodbav:"image,omitempty" json:"image,omitempty"`
	Likes     []string  `dynamodbav:"likes,stringset,omitempty" json:"likes,omitempty"`
	Comments  []Comment `dynamodbav:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt string    `dynamodbav:"createdAt" json:"createdAt"`
}

// PostsTable is the DynamoDB table name for posts
const PostsTable = "Posts"
