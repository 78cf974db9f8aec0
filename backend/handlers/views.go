package handlers

import (
	"yatube/backend/comment"
	"yatube/backend/follower"
	"yatube/backend/group"
	"yatube/backend/paginator"
	"yatube/backend/post"
	"yatube/backend/user"
)

// View data passed to templates. Every view carries the current user (nil
// when anonymous) for the navigation bar.

type feedView struct {
	User *user.User
	Page paginator.Page[post.Post]
}

type groupView struct {
	User  *user.User
	Group group.Group
	Page  paginator.Page[post.Post]
}

type profileView struct {
	User      *user.User
	Author    user.User
	Count     int
	Counts    follower.Counts
	Following bool
	Page      paginator.Page[post.Post]
}

type postView struct {
	User     *user.User
	Post     post.Post
	Author   user.User
	Count    int
	Counts   follower.Counts
	Comments []comment.Comment
}

type postFormView struct {
	User   *user.User
	Form   postForm
	Groups []group.Group
	Post   *post.Post
}

type loginView struct {
	User     *user.User
	Username string
	Next     string
	Error    string
}

type signupView struct {
	User   *user.User
	Form   user.SignupInput
	Errors user.FieldErrors
}

type errorView struct {
	User *user.User
	Path string
}
