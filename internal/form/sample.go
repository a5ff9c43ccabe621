package form

// SamplePosting is preloaded in the text input when form.sample_posting is set
const SamplePosting = `Senior Software Engineer - Full Stack
Company: TechCorp Solutions
Location: San Francisco, CA (Hybrid)
Salary: $130,000 - $160,000 per year

About the Role:
We are seeking an experienced Senior Software Engineer to join our dynamic engineering team. You will be responsible for developing and maintaining both frontend and backend systems for our SaaS platform.

Requirements:
• 5+ years of software development experience
• Proficiency in JavaScript, React, Node.js
• Experience with cloud platforms (AWS, Azure)
• Strong knowledge of databases (PostgreSQL, MongoDB)
• Bachelor's degree in Computer Science or related field

Benefits:
• Health, dental, and vision insurance
• 401(k) with company matching
• Flexible work arrangements
• Professional development budget
• Unlimited PTO

Join our team and help build the future of enterprise software solutions!`
