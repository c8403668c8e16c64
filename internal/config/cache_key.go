package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key holding a student's active
// session JTI (single-device login enforcement).
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// UpcomingClassesKey returns the cache key for the public browse listing of
// upcoming classes.
func (r *CacheKeyStruct) UpcomingClassesKey() string {
	return "classes:upcoming"
}

// ClassRosterChannel returns the Redis PubSub channel used to fan out
// presence events for a class's meeting room.
func (r *CacheKeyStruct) ClassRosterChannel(classID string) string {
	return fmt.Sprintf("class:%s:roster", classID)
}

var CacheKey = NewCacheKeyStruct()
