package api

import (
	"net/http"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	academytypes "github.com/stakedlearn/stakedlearn/x/academy/types"
)

func (s *Server) handleRegisterInstructor(c *gin.Context) {
	var req RegisterInstructorRequest
	if !s.bind(c, &req) {
		return
	}
	s.execute(c, &academytypes.MsgRegisterInstructor{
		Instructor: s.caller(c).String(),
		Name:       req.Name,
		Bio:        req.Bio,
	})
}

func (s *Server) handleCreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if !s.bind(c, &req) {
		return
	}
	stake, ok := s.amount(c, "stake_amount", req.StakeAmount)
	if !ok {
		return
	}
	reward, ok := s.amount(c, "reward_amount", req.RewardAmount)
	if !ok {
		return
	}
	s.execute(c, &academytypes.MsgCreateCourse{
		Instructor:       s.caller(c).String(),
		Title:            req.Title,
		Description:      req.Description,
		StakeAmount:      stake,
		RewardAmount:     reward,
		DurationBlocks:   req.DurationBlocks,
		MinCompletionPct: req.MinCompletionPct,
	})
}

func (s *Server) handleAddMilestone(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	var req AddMilestoneRequest
	if !s.bind(c, &req) {
		return
	}
	s.execute(c, &academytypes.MsgAddMilestone{
		Instructor:  s.caller(c).String(),
		CourseId:    courseID,
		MilestoneId: req.MilestoneId,
		Title:       req.Title,
		Description: req.Description,
		Points:      req.Points,
		Required:    req.Required,
	})
}

func (s *Server) handleEnroll(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	s.execute(c, &academytypes.MsgEnroll{Student: s.caller(c).String(), CourseId: courseID})
}

func (s *Server) handleCompleteMilestone(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	milestoneID, ok := s.uintParam(c, "mid")
	if !ok {
		return
	}
	s.execute(c, &academytypes.MsgCompleteMilestone{
		Student:     s.caller(c).String(),
		CourseId:    courseID,
		MilestoneId: milestoneID,
	})
}

func (s *Server) handleUpdateProgress(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProgressRequest
	if !s.bind(c, &req) {
		return
	}
	s.execute(c, &academytypes.MsgUpdateProgress{
		Instructor:  s.caller(c).String(),
		Student:     req.Student,
		CourseId:    courseID,
		ProgressPct: req.ProgressPct,
	})
}

func (s *Server) handleCompleteCourse(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	s.execute(c, &academytypes.MsgCompleteCourse{Student: s.caller(c).String(), CourseId: courseID})
}

func (s *Server) handleClaimForfeited(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	s.execute(c, &academytypes.MsgClaimForfeitedStakes{Instructor: s.caller(c).String(), CourseId: courseID})
}

func (s *Server) handleFundRewards(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	var req FundRewardsRequest
	if !s.bind(c, &req) {
		return
	}
	amount, ok := s.amount(c, "amount", req.Amount)
	if !ok {
		return
	}
	s.execute(c, &academytypes.MsgFundCourseRewards{
		Funder:   s.caller(c).String(),
		CourseId: courseID,
		Amount:   amount,
	})
}

func (s *Server) handleToggleCourse(c *gin.Context) {
	courseID, ok := s.uintParam(c, "id")
	if !ok {
		return
	}
	s.execute(c, &academytypes.MsgToggleCourseStatus{Authority: s.caller(c).String(), CourseId: courseID})
}

func (s *Server) handleSetPlatformFee(c *gin.Context) {
	var req SetPlatformFeeRequest
	if !s.bind(c, &req) {
		return
	}
	s.execute(c, &academytypes.MsgSetPlatformFee{
		Authority:      s.caller(c).String(),
		PlatformFeePct: req.PlatformFeePct,
	})
}

func (s *Server) handleWithdrawFees(c *gin.Context) {
	var req WithdrawFeesRequest
	// the body is optional
	if c.Request.ContentLength != 0 && !s.bind(c, &req) {
		return
	}
	caller := s.caller(c).String()
	if req.Recipient == "" {
		req.Recipient = caller
	}
	s.execute(c, &academytypes.MsgWithdrawPlatformFees{Authority: caller, Recipient: req.Recipient})
}

func (s *Server) handleFaucet(c *gin.Context) {
	var req FaucetRequest
	if !s.bind(c, &req) {
		return
	}
	recipient, err := sdk.AccAddressFromBech32(req.Recipient)
	if err != nil {
		s.writeError(c, academytypes.ErrInvalidAddress.Wrapf("recipient: %v", err))
		return
	}
	amount, ok := s.amount(c, "amount", req.Amount)
	if !ok {
		return
	}
	if err := c.Request.Context().Err(); err != nil {
		s.writeError(c, err)
		return
	}

	res, err := s.runtime.Faucet(c.Request.Context(), s.caller(c), recipient, amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// execute applies msg unless the request was already cancelled.
func (s *Server) execute(c *gin.Context, msg academytypes.Msg) {
	ctx := c.Request.Context()
	if err := ctx.Err(); err != nil {
		s.writeError(c, err)
		return
	}
	res, err := s.runtime.Execute(ctx, msg)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) caller(c *gin.Context) sdk.AccAddress {
	return c.MustGet(callerKey).(sdk.AccAddress)
}

func (s *Server) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		s.badRequest(c, "invalid request body: %v", err)
		return false
	}
	return true
}

func (s *Server) uintParam(c *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		s.badRequest(c, "invalid %s %q", name, c.Param(name))
		return 0, false
	}
	return v, true
}

func (s *Server) amount(c *gin.Context, field, raw string) (math.Int, bool) {
	v, ok := math.NewIntFromString(raw)
	if !ok {
		s.writeError(c, academytypes.ErrInvalidAmount.Wrapf("%s %q is not an integer", field, raw))
		return math.Int{}, false
	}
	return v, true
}
