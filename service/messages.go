package service

const (
	MsgSongNotFound     = "Song not found"
	MsgPlaylistNotFound = "Playlist not found"
	MsgUserNotFound     = "User not found"
	MsgJobNotFound      = "Job not found"

	MsgUpdateSongDenied     = "You are not authorized to update this song"
	MsgDeleteSongDenied     = "You are not authorized to delete this song"
	MsgUpdatePlaylistDenied = "You are not authorized to update this playlist"
	MsgDeletePlaylistDenied = "You are not authorized to delete this playlist"
	MsgAddSongDenied        = "You are not authorized to add song to this playlist"
	MsgRemoveSongDenied     = "You are not authorized to remove song from this playlist"
	MsgViewJobDenied        = "You are not authorized to view this job"

	MsgSelfFollow        = "You cannot follow yourself"
	MsgInvalidFilename   = "Invalid filename"
	MsgInvalidPage       = "take and skip must be non-negative integers"
	MsgUploadFailed      = "Failed to upload"
	MsgWrongCredentials  = "Wrong email or password"
	MsgMissingCredential = "Email and password are required"
	MsgUserExists        = "User with this email already exists"
	MsgTokenMissing      = "A valid token is missing"
	MsgTokenInvalid      = "Token is invalid"
	MsgInvalidBody       = "Invalid request body"
)
