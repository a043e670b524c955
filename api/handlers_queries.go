package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	academytypes "github.com/stakedlearn/stakedlearn/x/academy/types"
)

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{ChainID: s.runtime.ChainID(), Height: s.runtime.Height()})
}

func (s *Server) handleGetParams(c *gin.Context) {
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.Params(ctx, &academytypes.QueryParamsRequest{})
	})
}

func (s *Server) handleGetCustody(c *gin.Context) {
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.Custody(ctx, &academytypes.QueryCustodyRequest{})
	})
}

func (s *Server) handleGetBalance(c *gin.Context) {
	address := c.Param("address")
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.Balance(ctx, &academytypes.QueryBalanceRequest{Address: address})
	})
}

func (s *Server) handleGetInstructor(c *gin.Context) {
	address := c.Param("address")
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.Instructor(ctx, &academytypes.QueryInstructorRequest{Address: address})
	})
}

func (s *Server) handleGetNextCourseID(c *gin.Context) {
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.NextCourseId(ctx, &academytypes.QueryNextCourseIdRequest{})
	})
}

func (s *Server) handleGetCourse(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.Course(ctx, &academytypes.QueryCourseRequest{CourseId: courseID})
	})
}

func (s *Server) handleGetCourseEnrollments(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.CourseEnrollments(ctx, &academytypes.QueryCourseEnrollmentsRequest{CourseId: courseID})
	})
}

func (s *Server) handleGetEnrollment(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	student := c.Param("student")
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.Enrollment(ctx, &academytypes.QueryEnrollmentRequest{CourseId: courseID, Student: student})
	})
}

func (s *Server) handleGetMilestone(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := s.uintParam(c, "mid")
	if !ok {
		return
	}
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.Milestone(ctx, &academytypes.QueryMilestoneRequest{CourseId: courseID, MilestoneId: milestoneID})
	})
}

func (s *Server) handleGetMilestoneCompletion(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := s.uintParam(c, "mid")
	if !ok {
		return
	}
	student := c.Param("student")
	s.query(c, func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error) {
		return qs.MilestoneCompletion(ctx, &academytypes.QueryMilestoneCompletionRequest{
			CourseId:    courseID,
			Student:     student,
			MilestoneId: milestoneID,
		})
	})
}

func (s *Server) query(c *gin.Context, fn func(ctx context.Context, qs academytypes.QueryServer) (interface{}, error)) {
	var res interface{}
	err := s.runtime.Query(c.Request.Context(), func(ctx context.Context, qs academytypes.QueryServer) error {
		var err error
		res, err = fn(ctx, qs)
		return err
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
