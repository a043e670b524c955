package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/status", s.handleStatus)

	api := s.router.Group("/api")
	{
		// Public reads
		api.GET("/params", s.handleGetParams)
		api.GET("/custody", s.handleGetCustody)
		api.GET("/balances/:address", s.handleGetBalance)
		api.GET("/instructors/:address", s.handleGetInstructor)

		courses := api.Group("/courses")
		{
			courses.GET("/next-id", s.handleGetNextCourseID)
			courses.GET("/:id", s.handleGetCourse)
			courses.GET("/:id/enrollments", s.handleGetCourseEnrollments)
			courses.GET("/:id/enrollments/:student", s.handleGetEnrollment)
			courses.GET("/:id/milestones/:mid", s.handleGetMilestone)
			courses.GET("/:id/milestones/:mid/completions/:student", s.handleGetMilestoneCompletion)
		}

		// Actions on behalf of the token holder
		protected := api.Group("")
		protected.Use(s.AuthMiddleware())
		{
			protected.POST("/instructors", s.handleRegisterInstructor)

			protected.POST("/courses", s.handleCreateCourse)
			protected.POST("/courses/:id/milestones", s.handleAddMilestone)
			protected.POST("/courses/:id/enroll", s.handleEnroll)
			protected.POST("/courses/:id/milestones/:mid/complete", s.handleCompleteMilestone)
			protected.PUT("/courses/:id/progress", s.handleUpdateProgress)
			protected.POST("/courses/:id/complete", s.handleCompleteCourse)
			protected.POST("/courses/:id/claim-forfeited", s.handleClaimForfeited)
			protected.POST("/courses/:id/rewards", s.handleFundRewards)

			admin := protected.Group("/admin")
			{
				admin.POST("/courses/:id/toggle", s.handleToggleCourse)
				admin.PUT("/platform-fee", s.handleSetPlatformFee)
				admin.POST("/fees/withdraw", s.handleWithdrawFees)
				if s.config.EnableFaucet {
					admin.POST("/faucet", s.handleFaucet)
				}
			}
		}
	}
}
