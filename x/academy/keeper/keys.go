package keeper

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

var (
	// CourseKeyPrefix is the prefix for course store keys
	CourseKeyPrefix = []byte{0x01}

	// EnrollmentKeyPrefix is the prefix for enrollments keyed by (course, student)
	EnrollmentKeyPrefix = []byte{0x02}

	// MilestoneKeyPrefix is the prefix for milestones keyed by (course, milestone)
	MilestoneKeyPrefix = []byte{0x03}

	// CompletionKeyPrefix is the prefix for milestone completions keyed by (course, student, milestone)
	CompletionKeyPrefix = []byte{0x04}

	// InstructorKeyPrefix is the prefix for instructor profiles
	InstructorKeyPrefix = []byte{0x05}

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x10}

	// NextCourseIDKey is the key for the next course ID counter
	NextCourseIDKey = []byte{0x11}

	// AccruedFeesKey is the key for platform fees held in custody
	AccruedFeesKey = []byte{0x12}
)

func uint64Bytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}

func joinKey(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 0, n)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// CourseKey returns the store key for a course by ID
func CourseKey(courseID uint64) []byte {
	return joinKey(CourseKeyPrefix, uint64Bytes(courseID))
}

// CourseEnrollmentsPrefix returns the prefix under which all enrollments of a course live
func CourseEnrollmentsPrefix(courseID uint64) []byte {
	return joinKey(EnrollmentKeyPrefix, uint64Bytes(courseID))
}

// EnrollmentKey returns the store key for a student's enrollment in a course
func EnrollmentKey(courseID uint64, student sdk.AccAddress) []byte {
	return joinKey(CourseEnrollmentsPrefix(courseID), address.MustLengthPrefix(student))
}

// MilestoneKey returns the store key for a milestone of a course
func MilestoneKey(courseID, milestoneID uint64) []byte {
	return joinKey(MilestoneKeyPrefix, uint64Bytes(courseID), uint64Bytes(milestoneID))
}

// CompletionKey returns the store key for a milestone completion
func CompletionKey(courseID uint64, student sdk.AccAddress, milestoneID uint64) []byte {
	return joinKey(CompletionKeyPrefix, uint64Bytes(courseID), address.MustLengthPrefix(student), uint64Bytes(milestoneID))
}

// InstructorKey returns the store key for an instructor profile
func InstructorKey(instructor sdk.AccAddress) []byte {
	return joinKey(InstructorKeyPrefix, address.MustLengthPrefix(instructor))
}
